package structure

import (
	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/request"
)

func toEntityStructure(id string, req *entity.SaveStructureRequest) (*entity.Structure, error) {
	content, err := request.Document("content", req.Content)
	if err != nil {
		return nil, err
	}
	return &entity.Structure{
		ID:      id,
		Project: req.Project,
		Content: content,
		IsFinal: req.IsFinal,
	}, nil
}
