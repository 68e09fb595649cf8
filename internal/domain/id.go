package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Depth + Index).
// Spatial-индексу и сетевому слою достаточно одного сравнимого числа.
type EntityID uint64

// Конфигурация битов
const (
	bitsIndex = 48
	bitsDepth = 16

	shiftDepth = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskDepth = (1 << bitsDepth) - 1
)

// PackEntityID создает ID из номера уровня и порядкового номера сущности.
func PackEntityID(depth int16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(depth) & maskDepth) << shiftDepth
	return EntityID(id)
}

func (id EntityID) Depth() int16 {
	return int16((id >> shiftDepth) & maskDepth)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку: JS теряет точность для больших int64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [Depth:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%d:%d]", id.Depth(), id.Index())
}
