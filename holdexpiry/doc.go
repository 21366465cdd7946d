// Package holdexpiry releases pickup reservations whose deadline has lapsed.
//
// A Scheduler periodically folds each library's copy history, finds the
// reservations whose pickup window closed, and issues an expire-hold command
// for each one. The commands go through the normal command path, so a racing
// pickup at the desk wins the append and the expiry backs off.
package holdexpiry
