// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionJumpStart       Action = "jump_start"
	ActionJumpEnd         Action = "jump_end"

	// Rate actions
	ActionRateDown  Action = "rate_down"
	ActionRateUp    Action = "rate_up"
	ActionRateReset Action = "rate_reset"
)
