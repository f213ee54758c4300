// Package loader keeps the state of list views: the loaded items, whether
// a load is running and the last error.
package loader
