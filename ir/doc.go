// Package ir defines the data model shared by the shards WGSL translator.
//
// # Types
//
// NumType covers scalars, vectors and Float32 matrices. TextureType and
// SamplerType are opaque: values of these types are passed by reference and
// never bound with let or var. StructType and ArrayType describe host
// buffers.
//
// # Output AST
//
// Generated code is a tree of Block nodes. Direct holds literal WGSL text,
// Compound orders children, and the IO nodes (ReadInput, WriteOutput,
// ReadGlobal, WriteGlobal, ReadBuffer, RefTexture, RefSampler,
// SampleTexture) are left for the emitter to resolve against its own
// binding layout. Header nodes are hoisted ahead of all other output.
//
// # Operators
//
// BinaryOperator and UnaryOperator name the arithmetic, comparison, bitwise
// and builtin-call operators. ResolveBinary and ResolveUnary check operand
// types and compute the result type.
//
// # Functions
//
// FunctionRegistry records the signature of every sub-graph extracted into
// a WGSL function, keyed by the identity of the sub-graph.
package ir
