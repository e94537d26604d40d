// Package visibility distributes the host application's foreground/background
// signal to feed controllers.
//
// It is the stand-in for a browser tab's visibilitychange event: the
// embedding application drives Set, and each controller subscribes to gate
// its reconnection behavior.
package visibility
