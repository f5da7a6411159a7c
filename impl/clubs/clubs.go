// Package clubs maintains the club directory that account memberships and
// events are validated against.
package clubs

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubconnect/entity"
	"clubconnect/lib/sl"
)

type Database interface {
	GetClub(name string) (*entity.Club, error)
	InsertClub(club *entity.Club) error
	UpsertClub(club *entity.Club) error
	ListClubs() ([]*entity.Club, error)
}

type Service struct {
	db  Database
	log *slog.Logger
}

func New(db Database, log *slog.Logger) *Service {
	return &Service{db: db, log: log.With(sl.Module("clubs"))}
}

func (s *Service) Get(name string) (*entity.Club, error) {
	return s.db.GetClub(name)
}

func (s *Service) List() ([]*entity.Club, error) {
	return s.db.ListClubs()
}

// Init registers a new club in the directory. The name is the identity, so a
// second init with the same name is a conflict.
func (s *Service) Init(req *entity.InitClubRequest) (*entity.Club, error) {
	if !entity.IsValidClubType(req.Type) {
		return nil, fmt.Errorf("%w: invalid club type %q", entity.ErrValidation, req.Type)
	}
	if _, err := s.db.GetClub(req.Name); err == nil {
		return nil, fmt.Errorf("%w: club %q already exists", entity.ErrValidation, req.Name)
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	club := &entity.Club{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Labels:      []entity.ClubLabel{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.InsertClub(club); err != nil {
		return nil, err
	}
	s.log.Info("club registered", slog.String("club", club.Name), slog.String("type", club.Type))
	return club, nil
}

// Update applies the provided fields to the club page. Nil pointers leave the
// current value untouched; an empty string clears it.
func (s *Service) Update(req *entity.UpdateClubRequest) (*entity.Club, error) {
	club, err := s.db.GetClub(req.ClubName)
	if err != nil {
		return nil, err
	}
	if req.Logo != nil {
		club.Logo = *req.Logo
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Labels != nil {
		club.Labels = req.Labels
	}
	club.UpdatedAt = time.Now().UTC()
	if err = s.db.UpsertClub(club); err != nil {
		return nil, err
	}
	return club, nil
}
