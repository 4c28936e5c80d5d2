package desktop

import "context"

// BlockModule hides module from user regardless of any other setting.
func (s *Service) BlockModule(ctx context.Context, user, module string) error {
	if err := s.access.BlockModule(ctx, user, module); err != nil {
		return err
	}
	s.cache.Invalidate(user)
	return nil
}

// UnblockModule lifts a block placed by BlockModule.
func (s *Service) UnblockModule(ctx context.Context, user, module string) error {
	if err := s.access.UnblockModule(ctx, user, module); err != nil {
		return err
	}
	s.cache.Invalidate(user)
	return nil
}
