// Package component resolves component names to their source files.
//
// A component is a named unit of source comprising an interface file
// (name.h), an implementation file (name.cpp) and one or more test drivers.
// Test drivers are either a single name.t.cpp or a numbered sequence
// name.0.t.cpp, name.1.t.cpp, ... with no gaps.
//
// Packages group components that share a name prefix (pkg_widget belongs to
// package pkg). A package directory lists its members in a manifest file
// under package/*.mem.
package component
