package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log доступен сразу после импорта пакета: до вызова Init пишет в stderr на
// уровне info, поэтому код сервисов и тесты не обязаны его настраивать.
var Log = logrus.New()

// Init настраивает уровень и формат логгера под окружение.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Silence отключает вывод. Используется в тестах, где журнал только шумит.
func Silence() {
	Log.SetOutput(io.Discard)
}
