package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrCannotModifySelf is returned when an admin targets their own account
var ErrCannotModifySelf = shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot perform this action on your own account")

// UserService handles profiles, address books and admin user management
type UserService struct {
	users     identity.UserRepository
	addresses identity.AddressRepository
	tx        shared.Transactor
	events    shared.OutboxEventSaver
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users identity.UserRepository,
	addresses identity.AddressRepository,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		addresses: addresses,
		tx:        tx,
		events:    events,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger.Named("users"),
	}
}

// Me returns the caller's profile
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile changes name, phone and avatar
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.Name, req.Phone, req.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword replaces the password and revokes tokens issued before it
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.tokens.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke tokens after password change", zap.String("user_id", userID.String()), zap.Error(err))
	}
	s.logger.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

// ListAddresses returns the caller's address book, default first
func (s *UserService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addrs, err := s.addresses.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AddressResponse, len(addrs))
	for i, a := range addrs {
		out[i] = ToAddressResponse(a)
	}
	return out, nil
}

// CreateAddress adds an entry. The first address becomes the default.
func (s *UserService) CreateAddress(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	existing, err := s.addresses.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	in := req.toInput()
	if len(existing) == 0 {
		in.IsDefault = true
	}
	addr, err := identity.NewAddress(userID, in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.addresses.Create(ctx, addr); err != nil {
			return err
		}
		if addr.IsDefault {
			return s.addresses.ClearDefault(ctx, userID, addr.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// UpdateAddress replaces an entry owned by the caller
func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	wasDefault := addr.IsDefault
	in := req.toInput()
	// the default can only move, never be switched off
	if wasDefault {
		in.IsDefault = true
	}
	if err := addr.Apply(in); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.addresses.Update(ctx, addr); err != nil {
			return err
		}
		if addr.IsDefault && !wasDefault {
			return s.addresses.ClearDefault(ctx, userID, addr.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// SetDefaultAddress moves the default flag to addressID
func (s *UserService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressResponse, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if !addr.IsDefault {
		addr.IsDefault = true
		addr.Touch()
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.addresses.Update(ctx, addr); err != nil {
				return err
			}
			return s.addresses.ClearDefault(ctx, userID, addr.ID)
		})
		if err != nil {
			return nil, err
		}
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// DeleteAddress removes an entry. When it was the default, the oldest
// remaining address takes over.
func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.addresses.Delete(ctx, addr.ID); err != nil {
			return err
		}
		if !addr.IsDefault {
			return nil
		}
		rest, err := s.addresses.FindByUser(ctx, userID)
		if err != nil || len(rest) == 0 {
			return err
		}
		next := rest[0]
		next.IsDefault = true
		next.Touch()
		return s.addresses.Update(ctx, next)
	})
}

// ownedAddress hides other users' addresses behind NOT_FOUND
func (s *UserService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*identity.Address, error) {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !addr.OwnedBy(userID) {
		s.logger.Warn("Address access denied",
			zap.String("user_id", userID.String()),
			zap.String("address_id", addressID.String()))
		return nil, shared.ErrNotFound.WithMessage("Address not found")
	}
	return addr, nil
}

// List returns a page of users for the admin console
func (s *UserService) List(ctx context.Context, filter UserListFilter) (shared.Paginated[*UserResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	f := identity.UserFilter{Search: filter.Search, Page: filter.Page, PageSize: filter.PageSize}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		f.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		f.Status = &status
	}

	users, total, err := s.users.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[*UserResponse]{}, err
	}
	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.Me(ctx, id)
}

// Create adds an active, verified account from the admin console
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.UpdateProfile(user.Name, req.Phone, ""); err != nil {
			return nil, err
		}
	}
	if req.Role != "" {
		if err := user.SetRole(identity.Role(req.Role)); err != nil {
			return nil, err
		}
	}
	if err := user.VerifyEmail(); err != nil {
		return nil, err
	}
	user.Version = 1

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return identity.ErrEmailTaken
			}
			return err
		}
		return s.events.SaveEvents(ctx, user.GetDomainEvents()...)
	})
	if err != nil {
		return nil, err
	}
	user.ClearDomainEvents()

	s.logger.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return ToUserResponse(user), nil
}

// Update changes role and status. Admins cannot demote or lock themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if actorID == id {
		return nil, ErrCannotModifySelf
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	revoke := false
	if req.Status != nil {
		status := identity.UserStatus(*req.Status)
		if err := user.SetStatus(status); err != nil {
			return nil, err
		}
		revoke = status == identity.UserStatusDisabled || status == identity.UserStatusLocked
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	if revoke || req.Role != nil {
		s.revokeSessions(ctx, user.ID)
	}

	s.logger.Info("User updated by admin",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", id.String()),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)))
	return ToUserResponse(user), nil
}

// Enable re-activates an account
func (s *UserService) Enable(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, ErrCannotModifySelf
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Enable(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User enabled", zap.String("actor_id", actorID.String()), zap.String("user_id", id.String()))
	return ToUserResponse(user), nil
}

// Disable blocks an account and revokes its sessions
func (s *UserService) Disable(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, ErrCannotModifySelf
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)
	s.logger.Info("User disabled", zap.String("actor_id", actorID.String()), zap.String("user_id", id.String()))
	return ToUserResponse(user), nil
}

// Delete removes an account and revokes its sessions
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrCannotModifySelf
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.logger.Info("User deleted", zap.String("actor_id", actorID.String()), zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if err := s.blacklist.InvalidateUser(ctx, id.String(), s.tokens.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", id.String()), zap.Error(err))
	}
}

func (s *UserService) save(ctx context.Context, user *identity.User) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.events.SaveEvents(ctx, user.GetDomainEvents()...)
	})
	if err == nil {
		user.ClearDomainEvents()
	}
	return err
}
