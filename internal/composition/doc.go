// Package composition implements the exponent-vector algebra behind quantity
// and unit dimensions. A composition maps base keys to rational exponents and
// comes in two flavors, Scalar and Vector, with the cross-flavor multiply,
// divide, dot and cross rules of dimensional analysis.
package composition
