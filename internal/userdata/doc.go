// Package userdata manages the ~/.presalesly/userdata/ directory: the
// persisted session record, user preferences, initialization with secure
// permissions and the doctor health check.
package userdata
