package logger

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger.
type Config struct {
	// Env define el entorno: "dev" (consola con colores) o "prod" (JSON).
	// Default: "dev"
	Env string

	// Level define el nivel mínimo de log: "debug", "info", "warn", "error".
	// Default: "info"
	Level string

	// ServiceName se agrega como campo "service" si no está vacío.
	ServiceName string
}

var (
	once     sync.Once
	instance atomic.Pointer[zap.Logger]
)

// Init inicializa el logger singleton. Solo la primera llamada tiene efecto.
func Init(cfg Config) {
	once.Do(func() {
		instance.Store(build(cfg))
	})
}

// L retorna el logger singleton (dev/info si Init no fue llamado).
func L() *zap.Logger {
	Init(Config{Env: "dev", Level: "info"})
	return instance.Load()
}

// Set reemplaza el singleton (tests con zaptest/observer) y retorna el anterior.
func Set(l *zap.Logger) *zap.Logger {
	Init(Config{Env: "dev", Level: "info"})
	return instance.Swap(l)
}

// Named retorna un logger con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// S retorna el SugaredLogger del singleton, para mensajes printf-style del CLI.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// Sync flushea buffers pendientes. Llamar con defer en main.
func Sync() error {
	return L().Sync()
}

// build construye el logger según la configuración.
func build(cfg Config) *zap.Logger {
	var zcfg zap.Config
	if strings.EqualFold(cfg.Env, "prod") {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	// stderr: stdout queda para la salida JSON del CLI.
	zcfg.OutputPaths = []string{"stderr"}

	l, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		// Fallback a un logger básico si falla
		l, _ = zap.NewProduction()
	}
	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	return l
}

// ParseLevel convierte un string a zapcore.Level (info si no se reconoce).
func ParseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
