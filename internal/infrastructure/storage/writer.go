package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"deepforge-server/internal/domain"
)

const (
	MagicHeader string = `DFLV` // 4 байта
	Version1    uint32 = 1
)

// LevelFileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком: тут нет слайсов и строк,
// только массивы и числа.
type LevelFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Timestamp   int64   // 8 байт
	Depth       int32   // 4 байта
	Width       int32   // 4 байта
	Height      int32   // 4 байта
	NameLen     uint16  // 2 байта
	EntitiesLen uint32  // 4 байта
}

// LevelService сохраняет и загружает уровни в бинарном формате:
// заголовок фиксированного размера, имя, тайлы, маска разведки,
// затем сущности одним JSON-блоком.
type LevelService struct {
	SaveDir string
}

func NewLevelService(dir string) *LevelService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &LevelService{SaveDir: dir}
}

func (s *LevelService) Save(m *domain.Map, entities []*domain.Entity) (string, error) {
	filename := fmt.Sprintf("level_d%d_%d.dflv", m.Depth, time.Now().UnixNano())
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, m, entities); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, m *domain.Map, entities []*domain.Entity) error {
	nameBytes := []byte(m.Name)
	if len(nameBytes) > 65535 {
		return fmt.Errorf("level name too long: %d", len(nameBytes))
	}

	entityBlob, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}

	header := LevelFileHeader{
		Version:     Version1,
		Timestamp:   time.Now().Unix(),
		Depth:       int32(m.Depth),
		Width:       int32(m.Width),
		Height:      int32(m.Height),
		NameLen:     uint16(len(nameBytes)),
		EntitiesLen: uint32(len(entityBlob)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(nameBytes); err != nil {
		return err
	}

	// Тайлы: по байту на клетку
	tiles := make([]byte, len(m.Tiles))
	for i, t := range m.Tiles {
		tiles[i] = byte(t)
	}
	if _, err := w.Write(tiles); err != nil {
		return err
	}

	// Маска разведки: по байту на клетку
	revealed := make([]byte, len(m.Revealed))
	for i, r := range m.Revealed {
		if r {
			revealed[i] = 1
		}
	}
	if _, err := w.Write(revealed); err != nil {
		return err
	}

	if _, err := w.Write(entityBlob); err != nil {
		return err
	}
	return nil
}
