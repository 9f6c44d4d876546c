// Package bundle implements the packaging declaration for multiplecam based on
// Starlark. A bundle.star file declares the binaries, data files and hidden
// imports that have to end up in the packaged executable as well as the
// executable's own properties (name, icon, windowing mode). The declaration is
// evaluated once per build and never re-entered.
package bundle
