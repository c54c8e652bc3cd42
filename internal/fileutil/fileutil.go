package fileutil

import "os"

// OwnerReadWrite is the file permission mode for files extracted into the
// scoped temporary directory (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for CLI output files (joined
// GeoJSON, reports) intended to be read by other tools and users.
const ReadableByAll os.FileMode = 0o644
