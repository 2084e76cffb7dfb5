package category

import "log/slog"

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) GetAllCategories() []CategoryResponse {
	all := All()
	out := make([]CategoryResponse, 0, len(all))
	for _, c := range all {
		out = append(out, c.ToResponse())
	}
	return out
}

func (s *Service) GetCategoryByName(name string) (*CategoryResponse, bool) {
	c, ok := Parse(name)
	if !ok {
		s.logger.Debug("unknown category requested", "name", name)
		return nil, false
	}
	resp := c.ToResponse()
	return &resp, true
}

func (s *Service) IsValidCategory(name string) bool {
	_, ok := Parse(name)
	return ok
}
