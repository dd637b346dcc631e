// Package platform holds the partner platform catalog and the sync
// handshake that unlocks the predictor.
//
// A Selector tracks the platform and engine chosen in the sync modal. An
// engine a platform does not offer cannot be selected, and switching to
// such a platform clears the engine choice. A Handshake submits the
// selection: it waits a fixed delay on the injected clock, then records
// platform, engine and the unlock flag in one session transition.
//
// The built-in catalog can be replaced with a TOML file:
//
//	[[platforms]]
//	id = "Bet261"
//	name = "Bet261"
//	url = "https://bet261.mg/"
//
//	[platforms.engines.studio]
//	available = true
//	url = "https://bet261.mg/instant-games/llc/Aviator"
//
//	[platforms.engines.spribe]
//	available = false
package platform
