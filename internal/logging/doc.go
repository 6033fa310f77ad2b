// Package logging builds the zap loggers used across the editor.
//
// Components receive a *zap.Logger and tag it with Component:
//
//	log := logging.Component(base, "reconcile")
//	log.Debug("patched block", zap.String("id", id))
//
// A nil logger passed to Component yields a no-op logger, so packages can
// default to silence.
package logging
