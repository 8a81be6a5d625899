// Package transformer walks a document tree and renders it into a target
// syntax by delegating every formatting decision to a rule set. The engine
// owns traversal order, mark composition order and block assembly; it never
// inspects what the rule set returns.
//
// Rendering is pure: the input tree is never mutated or retained, a
// Transformer carries no per-call state, and one instance can serve
// concurrent renders of independent trees.
package transformer
