package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configura o logger estruturado do serviço.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	Format      string // "json" (default) ou "console"
	Output      io.Writer
}

// New cria o logger raiz. Todo log da aplicação sai daqui.
func New(opts Options) zerolog.Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if opts.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.
		New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(opts.Level)
}

// ParseLevel converte o nível vindo de config; valor inválido cai em info.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if level, err := zerolog.ParseLevel(levelString); err == nil {
		return level
	}
	return zerolog.InfoLevel
}
