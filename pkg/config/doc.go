// Package config resolves client settings and the tokens file.
//
// Settings are layered: SPESS_* environment variables win over values passed
// by the caller, which win over defaults.
//
//	settings, err := config.Load(config.Settings{LogLevel: "debug"})
//	tokens, err := settings.OpenTokens()
//	agent, err := tokens.GetAgent(status.ResetDate, settings.AgentToken)
//
// Tokens live in ${UserConfigDir}/spess/tokens.txt, one JWT per line. Text
// after '#' is a comment.
package config
