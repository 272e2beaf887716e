package useraccess

import "context"

// PermissionChain walks ordered permission stores the same way the resolver
// walks record stores: first hit wins, failures fall through.
type PermissionChain struct {
	stores []PermissionStore
}

func NewPermissionChain(stores ...PermissionStore) *PermissionChain {
	filtered := make([]PermissionStore, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &PermissionChain{stores: filtered}
}

func (c *PermissionChain) Name() string {
	if len(c.stores) == 0 {
		return "none"
	}
	name := c.stores[0].Name()
	for _, s := range c.stores[1:] {
		name += "," + s.Name()
	}
	return name
}

func (c *PermissionChain) FindByRoleTitle(ctx context.Context, roleTitle string) (*PermissionFlags, error) {
	var lastErr error
	for _, s := range c.stores {
		flags, err := s.FindByRoleTitle(ctx, roleTitle)
		if err != nil {
			lastErr = err
			continue
		}
		if flags != nil {
			return flags, nil
		}
		// A clean miss answers the question; forget earlier store failures.
		lastErr = nil
	}
	return nil, lastErr
}
