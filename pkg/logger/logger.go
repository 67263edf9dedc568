// Package logger envuelve zerolog con la configuración de la API: salida, nivel y
// campos fijos por servicio y componente.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config parámetros del logger raíz.
type Config struct {
	Env     string    // "development" imprime en consola con colores; cualquier otro valor, JSON por línea
	Level   string    // nivel zerolog (trace..error); vacío o desconocido cae a info
	Service string    // si no está vacío se agrega como campo service
	Out     io.Writer // destino; nil es os.Stdout
}

// Logger es el logger que reciben handlers, casos de uso y repositorios.
type Logger struct {
	zl zerolog.Logger
}

// New arma el logger raíz y lo deja también como logger global de zerolog.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// Nop descarta todo; pensado para tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal registra y termina el proceso con os.Exit(1).
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Named devuelve un hijo que etiqueta cada línea con component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog expone el logger subyacente.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
