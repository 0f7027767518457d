package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/sanitize"
	"github.com/justinong00/mern-dormguru-sub000/internal/txn"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UniversityService struct {
	unis    *repository.UniversityRepository
	dorms   *repository.DormRepository
	reviews *repository.ReviewRepository
	tx      *txn.Runner
	log     *zap.Logger
}

type UniversityData struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Bio             string `json:"bio" validate:"max=5000"`
	WebsiteURL      string `json:"websiteURL" validate:"omitempty,url"`
	Address         string `json:"address" validate:"required,max=300"`
	LogoPic         string `json:"logoPic"`
	EstablishedYear int    `json:"establishedYear" validate:"omitempty,gte=1000,lte=2100"`
	PostalCode      string `json:"postalCode" validate:"max=20"`
	City            string `json:"city" validate:"max=80"`
	State           string `json:"state" validate:"max=80"`
}

type UpdateUniversityData struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Bio             *string `json:"bio" validate:"omitempty,max=5000"`
	WebsiteURL      *string `json:"websiteURL" validate:"omitempty,url"`
	Address         *string `json:"address" validate:"omitempty,max=300"`
	LogoPic         *string `json:"logoPic"`
	EstablishedYear *int    `json:"establishedYear" validate:"omitempty,gte=1000,lte=2100"`
	PostalCode      *string `json:"postalCode" validate:"omitempty,max=20"`
	City            *string `json:"city" validate:"omitempty,max=80"`
	State           *string `json:"state" validate:"omitempty,max=80"`
}

func NewUniversityService(
	unis *repository.UniversityRepository,
	dorms *repository.DormRepository,
	reviews *repository.ReviewRepository,
	tx *txn.Runner,
	log *zap.Logger,
) *UniversityService {
	return &UniversityService{unis: unis, dorms: dorms, reviews: reviews, tx: tx, log: log}
}

// Create inserts a university owned by actor. Names are unique regardless of
// case.
func (s *UniversityService) Create(ctx context.Context, actor primitive.ObjectID, data UniversityData) (*models.University, error) {
	data.Name = sanitize.Text(data.Name)
	data.Address = sanitize.Text(data.Address)
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	nameCI := text.Fold(data.Name)
	taken, err := s.unis.NameTaken(ctx, nameCI, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUniversityNameTaken
	}

	now := time.Now().UTC()
	u := &models.University{
		Name:            data.Name,
		NameCI:          nameCI,
		Bio:             sanitize.Rich(data.Bio),
		WebsiteURL:      strings.TrimSpace(data.WebsiteURL),
		Address:         data.Address,
		LogoPic:         strings.TrimSpace(data.LogoPic),
		EstablishedYear: data.EstablishedYear,
		PostalCode:      sanitize.Text(data.PostalCode),
		City:            sanitize.Text(data.City),
		State:           sanitize.Text(data.State),
		CreatedBy:       actor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.unis.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUniversityNameTaken
		}
		return nil, err
	}

	invalidateHomeStats(ctx, s.log)
	s.log.Info("university created", zap.String("universityID", u.ID.Hex()), zap.String("name", u.Name))
	return u, nil
}

func (s *UniversityService) Get(ctx context.Context, id primitive.ObjectID) (*models.University, error) {
	u, err := s.unis.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUniversityNotFound
	}
	return u, nil
}

func (s *UniversityService) List(ctx context.Context) ([]models.University, error) {
	return s.unis.List(ctx)
}

// Dorms lists the dorms of a university, newest first.
func (s *UniversityService) Dorms(ctx context.Context, id primitive.ObjectID) ([]models.DormView, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.dorms.ListViews(ctx, bson.M{"parentUniversity": id})
}

// Update applies the given fields. The original creator is kept and actor is
// recorded as updatedBy.
func (s *UniversityService) Update(ctx context.Context, actor, id primitive.ObjectID, data UpdateUniversityData) (*models.University, error) {
	data.Name = cleanText(data.Name)
	data.Address = cleanText(data.Address)
	data.PostalCode = cleanText(data.PostalCode)
	data.City = cleanText(data.City)
	data.State = cleanText(data.State)
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	set := bson.M{}
	if data.Name != nil {
		name := *data.Name
		if name == "" {
			return nil, validationErr("name cannot be empty")
		}
		nameCI := text.Fold(name)
		taken, err := s.unis.NameTaken(ctx, nameCI, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUniversityNameTaken
		}
		set["name"] = name
		set["name_ci"] = nameCI
	}
	if data.Bio != nil {
		set["bio"] = sanitize.Rich(*data.Bio)
	}
	if data.WebsiteURL != nil {
		set["websiteURL"] = strings.TrimSpace(*data.WebsiteURL)
	}
	if data.Address != nil {
		set["address"] = *data.Address
	}
	if data.LogoPic != nil {
		set["logoPic"] = strings.TrimSpace(*data.LogoPic)
	}
	if data.EstablishedYear != nil {
		set["establishedYear"] = *data.EstablishedYear
	}
	if data.PostalCode != nil {
		set["postalCode"] = *data.PostalCode
	}
	if data.City != nil {
		set["city"] = *data.City
	}
	if data.State != nil {
		set["state"] = *data.State
	}
	set["updatedBy"] = actor
	set["updatedAt"] = time.Now().UTC()

	u, err := s.unis.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUniversityNameTaken
		}
		return nil, err
	}
	if u == nil {
		return nil, ErrUniversityNotFound
	}
	return u, nil
}

// Delete removes a university together with its dorms and their reviews.
func (s *UniversityService) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteSummary, error) {
	var sum models.DeleteSummary
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		sum = models.DeleteSummary{}

		dormIDs, err := s.dorms.IDsByUniversity(ctx, id)
		if err != nil {
			return err
		}
		if sum.DeletedReviews, err = s.reviews.DeleteByDorms(ctx, dormIDs); err != nil {
			return err
		}
		if sum.DeletedDorms, err = s.dorms.DeleteByIDs(ctx, dormIDs); err != nil {
			return err
		}

		n, err := s.unis.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUniversityNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateHomeStats(ctx, s.log)
	s.log.Info("university deleted",
		zap.String("universityID", id.Hex()),
		zap.Int64("dorms", sum.DeletedDorms),
		zap.Int64("reviews", sum.DeletedReviews),
	)
	return &sum, nil
}
