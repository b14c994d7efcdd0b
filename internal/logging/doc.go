// Package logging provides the logging interface shared by factcalc
// components. Components log through the Logger interface with typed
// Fields; ZerologAdapter backs it with a zerolog.Logger.
package logging
