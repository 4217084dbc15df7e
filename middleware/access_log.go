package middleware

import (
	"fmt"
	"io"
	"time"

	"github.com/canoasgas/pedidos-api/config"
	"github.com/gin-gonic/gin"
)

// AccessLog replaces gin's default logger with one that also prints the
// request id. Access lines are only written at the debug and info log levels.
func AccessLog(cfg *config.Config) gin.HandlerFunc {
	return accessLog(cfg, gin.DefaultWriter)
}

func accessLog(cfg *config.Config, out io.Writer) gin.HandlerFunc {
	if !cfg.AccessLogEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: formatAccessLine,
		Output:    out,
	})
}

func formatAccessLine(p gin.LogFormatterParams) string {
	id, _ := p.Keys[requestIDKey].(string)
	if id == "" {
		id = "-"
	}
	line := fmt.Sprintf("[GIN] %s | %s | %3d | %13v | %15s | %-7s %q\n",
		p.TimeStamp.Format("2006/01/02 - 15:04:05"),
		id,
		p.StatusCode,
		p.Latency.Truncate(time.Microsecond),
		p.ClientIP,
		p.Method,
		p.Path,
	)
	if p.ErrorMessage != "" {
		line += p.ErrorMessage
	}
	return line
}
