package server

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling
	"sync"

	"deepforge-server/internal/engine"
	"deepforge-server/internal/network"
	"deepforge-server/internal/version"
	"deepforge-server/pkg/api"
	"deepforge-server/pkg/logger"
)

// Server раздает общий уровень всем подключенным клиентам:
// любой клиент может пересобрать его или подвигать игрока,
// остальные видят результат через Broadcaster.
type Server struct {
	Hub  *network.Broadcaster
	Port string

	mu    sync.Mutex
	cfg   engine.Config
	level *engine.Level
	seq   int
}

func New(cfg engine.Config, port string) (*Server, error) {
	level, err := engine.NewLevel(cfg, 1)
	if err != nil {
		return nil, err
	}
	return &Server{
		Hub:   network.NewBroadcaster(),
		Port:  port,
		cfg:   cfg,
		level: level,
	}, nil
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	logger.Log.Infof("⛏️  DeepForge Server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}

// nextSeq выдает следующий номер кадра. Вызывать под s.mu.
func (s *Server) nextSeqLocked() int {
	s.seq++
	return s.seq
}

// Regenerate пересобирает общий уровень и рассылает всем:
// сначала шаги генерации (если запрошена история), затем LEVEL-кадр.
func (s *Server) Regenerate(seed int64, depth int, history bool) error {
	cfg := s.cfg
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.RecordHistory = history
	if depth < 1 {
		depth = 1
	}

	level, err := engine.NewLevel(cfg, depth)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.level = level
	frames := make([]api.MapFrame, 0, len(level.History)+1)
	for stage, snap := range level.History {
		frames = append(frames, BuildSnapshotFrame(snap, level.Depth, stage, s.nextSeqLocked()))
	}
	frames = append(frames, BuildLevelFrame(level, s.nextSeqLocked()))
	s.mu.Unlock()

	for _, f := range frames {
		s.Hub.Broadcast(f)
	}
	return nil
}

// MovePlayer исполняет тик с командой движения игрока
// и рассылает обновленный LEVEL-кадр.
func (s *Server) MovePlayer(dx, dy int) {
	s.mu.Lock()
	level := s.level
	level.RunTick([]engine.MoveCommand{{Entity: level.Player.ID, DX: dx, DY: dy}})
	frame := BuildLevelFrame(level, s.nextSeqLocked())
	s.mu.Unlock()

	s.Hub.Broadcast(frame)
}

// CurrentFrame - снимок текущего уровня для нового подписчика.
func (s *Server) CurrentFrame() api.MapFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildLevelFrame(s.level, s.nextSeqLocked())
}
