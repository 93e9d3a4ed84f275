// Package logger provee el logger Zap del lobby: un singleton con scoping por contexto.
//
//   - "dev" escribe consola con colores, "prod" escribe JSON (APP_ENV).
//   - El nivel sale de LOG_LEVEL: debug, info, warn, error.
//   - Las operaciones del store agregan sus campos (op, user_id, game_id,
//     party_id) con los helpers de fields.go.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En el código de dominio:
//
//	logger.From(ctx).Info("party created", logger.PartyID(id), logger.Count(n))
package logger
