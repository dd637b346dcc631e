// Package app composes the session engine into one client.
//
// # Overview
//
// App owns the session container and wires the credential registry, the
// prediction generator, the audit verifier, the platform handshake and the
// optional analysis and chat collaborators around it. A presentation layer
// (the aloka CLI, or anything else) talks to App only.
//
// # Screens
//
// Screen gates what the presentation layer shows, in order:
//
//  1. the wallpaper editor, when the wallpaper view is open while logged out
//  2. first-launch wallpaper selection
//  3. the subscription notice
//  4. the login/register/recovery forms
//  5. the main application at the current view
//
// # Transient state
//
// ViewState holds the mobile menu and sync modal flags. They are never
// persisted. Navigating always closes the menu.
//
// # Late results
//
// An analysis records its prediction only if the view it started from is
// still current; otherwise the result is dropped with ErrStaleResult.
//
// # Notices
//
// Every error an operation returns can be turned into a user-facing Notice
// with NoticeFor. No operation panics.
package app
