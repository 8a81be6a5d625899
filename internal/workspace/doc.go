// Package workspace manages workspaces and the documents they own: creating
// a workspace with its settings, roles, owner membership and optional
// starter content, storing binary encoded documents, and tearing everything
// down again.
package workspace
