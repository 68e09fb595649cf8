package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят все уровни:
	// Level N Seed = MasterSeed + N
	Seed int64

	// Размеры генерируемых уровней
	MapWidth  int
	MapHeight int

	// Запись снапшотов генерации для визуализатора
	RecordHistory bool

	// Попытки случайной сборки до ухода в fallback-цепочку
	MaxBuildAttempts int
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:             time.Now().UnixNano(),
		MapWidth:         80,
		MapHeight:        50,
		MaxBuildAttempts: 3,
	}
}
