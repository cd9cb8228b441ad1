// Package feedback reports the outcome of user actions through two sinks:
// short-lived notices that fade out on their own, and a newest-first session
// log of every ledger call. Both are held in memory for the life of the
// session; log entries are also mirrored to logrus.
package feedback
