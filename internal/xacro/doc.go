// Package xacro expands robot description templates: macro definitions and
// instantiations, property substitution, file inclusion, and conditional
// blocks, plus $(arg), $(find) and $(env) interpolation inside attribute and
// text content.
//
// The output is the indent-normalized serialization of the expanded document.
// Byte-for-byte stability across library versions is not guaranteed, but the
// same template on disk always expands to the same text within one build.
package xacro
