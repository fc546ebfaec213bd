// Package formula parses matrix formulas into evaluation plans.
//
// A matrix token is an uppercase letter followed by optional lowercase
// letters (the base name), an optional subscript and an optional transpose
// marker:
//
//	S   K   Sl   P_0   P_{12}   K_n   K_{n+1}   A^T   P_0^T
//
// An expression is a '*'-separated sequence of tokens; whitespace is ignored
// and no other operator is accepted.
//
// Two modes:
//
//   - Simple (no '=' and no ','): the tokens form a left-associative
//     multiplication tree, e.g. S*K*S ⇒ ((S * K) * S).
//   - Iterative (contains '=' or ','): comma-separated statements, each either
//     an assignment LHS = RHS or a bare constant reference such as P_1.
//     Assignments whose target carries a symbolic subscript (K_{n+1}) form the
//     recurrence; all others are base cases (K_0 = A).
//
// Subscripts normalise as follows: _0 and _{0} are numeric; _n and _{n} are
// the symbolic current index; _{n+1} is the symbolic next index; any other
// label is kept as an opaque symbolic subscript that stays part of the
// matrix name, so S_left and S_right are two different matrices.
package formula
