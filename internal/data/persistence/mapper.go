package persistence

import "github.com/yungbote/payments-example/internal/domain/entity"

// Mapper converts between a domain value D and its row R. Implementations are pure.
//
// Identity columns are handled by Base/BaseOf; everything whose shape differs between the
// two sides (money, structured blobs) is converted explicitly by the implementation.
type Mapper[D any, R any] interface {
	ToDomain(row R) (entity.Loaded[D], error)
	ToPersistence(e entity.Entity[D]) (R, error)
}

// MapRows maps rows in order, stopping at the first corrupt row.
func MapRows[D any, R any](m Mapper[D, R], rows []R) ([]entity.Loaded[D], error) {
	out := make([]entity.Loaded[D], 0, len(rows))
	for _, row := range rows {
		loaded, err := m.ToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, loaded)
	}
	return out, nil
}
