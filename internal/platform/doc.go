// Package platform provides cross-platform filesystem helpers used for the
// CLI's private files: permission management and atomic replacement of small
// files such as the persisted session record.
package platform
