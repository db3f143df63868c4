// Package binary locates the platform executable that ships next to the
// launcher and, when the manifest asks for it, verifies it before it runs.
//
// # Location
//
// The executable is always a sibling of the launcher: Locate joins the
// install directory with the manifest's file name and refuses names that
// would leave that directory.
//
// # Verification
//
// Verification is opt-in per manifest:
//   - SHA-256: the manifest carries the expected digest for a platform key.
//   - OpenPGP: the manifest names a keyring; a detached signature must sit
//     next to the executable as <name>.sig or <name>.asc.
//
// When both are declared both must pass.
package binary
