package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"deepforge-server/internal/domain"
)

func (s *LevelService) Load(path string) (*domain.Map, []*domain.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*domain.Map, []*domain.Entity, error) {
	// 1. Читаем заголовок целиком
	var header LevelFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.Width < 1 || header.Height < 1 {
		return nil, nil, fmt.Errorf("invalid map size %dx%d", header.Width, header.Height)
	}

	// 2. Имя уровня
	nameBuf := make([]byte, header.NameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return nil, nil, fmt.Errorf("failed to read name: %w", err)
	}

	m := domain.NewMap(int(header.Width), int(header.Height), int(header.Depth), string(nameBuf))

	// 3. Тайлы и маска разведки
	tiles := make([]byte, len(m.Tiles))
	if _, err := io.ReadFull(r, tiles); err != nil {
		return nil, nil, fmt.Errorf("failed to read tiles: %w", err)
	}
	for i, b := range tiles {
		m.Tiles[i] = domain.TileType(b)
	}

	revealed := make([]byte, len(m.Revealed))
	if _, err := io.ReadFull(r, revealed); err != nil {
		return nil, nil, fmt.Errorf("failed to read revealed mask: %w", err)
	}
	for i, b := range revealed {
		m.Revealed[i] = b != 0
	}

	// 4. Сущности одним JSON-блоком
	var entities []*domain.Entity
	if header.EntitiesLen > 0 {
		blob := make([]byte, header.EntitiesLen)
		if _, err := io.ReadFull(r, blob); err != nil {
			return nil, nil, fmt.Errorf("failed to read entities: %w", err)
		}
		if err := json.Unmarshal(blob, &entities); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal entities: %w", err)
		}
	}

	return m, entities, nil
}
