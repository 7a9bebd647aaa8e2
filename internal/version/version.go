// Package version holds the ttytap release version.
package version

// Version is the current release, without the leading "v".
const Version = "0.1.0"
