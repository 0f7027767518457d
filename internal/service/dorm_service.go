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

type DormService struct {
	dorms   *repository.DormRepository
	unis    *repository.UniversityRepository
	reviews *repository.ReviewRepository
	tx      *txn.Runner
	log     *zap.Logger
}

type DormData struct {
	Name             string   `json:"name" validate:"required,min=2,max=120"`
	Description      string   `json:"description" validate:"max=10000"`
	Address          string   `json:"address" validate:"required,max=300"`
	RoomsOffered     []string `json:"roomsOffered" validate:"required,min=1"`
	ParentUniversity string   `json:"parentUniversity" validate:"required"`
	DormType         string   `json:"dormType" validate:"required,max=40"`
	EstablishedYear  int      `json:"establishedYear" validate:"omitempty,gte=1000,lte=2100"`
	PostalCode       string   `json:"postalCode" validate:"max=20"`
	City             string   `json:"city" validate:"max=80"`
	State            string   `json:"state" validate:"max=80"`
	CoverPhotos      []string `json:"coverPhotos"`
}

type UpdateDormData struct {
	Name             *string   `json:"name" validate:"omitempty,min=2,max=120"`
	Description      *string   `json:"description" validate:"omitempty,max=10000"`
	Address          *string   `json:"address" validate:"omitempty,max=300"`
	RoomsOffered     *[]string `json:"roomsOffered"`
	ParentUniversity *string   `json:"parentUniversity"`
	DormType         *string   `json:"dormType" validate:"omitempty,max=40"`
	EstablishedYear  *int      `json:"establishedYear" validate:"omitempty,gte=1000,lte=2100"`
	PostalCode       *string   `json:"postalCode" validate:"omitempty,max=20"`
	City             *string   `json:"city" validate:"omitempty,max=80"`
	State            *string   `json:"state" validate:"omitempty,max=80"`
	CoverPhotos      *[]string `json:"coverPhotos"`
}

func NewDormService(
	dorms *repository.DormRepository,
	unis *repository.UniversityRepository,
	reviews *repository.ReviewRepository,
	tx *txn.Runner,
	log *zap.Logger,
) *DormService {
	return &DormService{dorms: dorms, unis: unis, reviews: reviews, tx: tx, log: log}
}

// Create inserts a dorm under an existing university. A new dorm starts
// with no reviews and an average rating of 0.
func (s *DormService) Create(ctx context.Context, actor primitive.ObjectID, data DormData) (*models.Dorm, error) {
	data.Name = sanitize.Text(data.Name)
	data.Address = sanitize.Text(data.Address)
	data.DormType = sanitize.Text(data.DormType)
	data.RoomsOffered = sanitize.Texts(data.RoomsOffered)
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	uniID, err := s.parentUniversity(ctx, data.ParentUniversity)
	if err != nil {
		return nil, err
	}

	nameCI := text.Fold(data.Name)
	taken, err := s.dorms.NameTaken(ctx, nameCI, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDormNameTaken
	}

	now := time.Now().UTC()
	d := &models.Dorm{
		Name:             data.Name,
		NameCI:           nameCI,
		Description:      sanitize.Rich(data.Description),
		Address:          data.Address,
		RoomsOffered:     dedupe(data.RoomsOffered),
		ParentUniversity: uniID,
		DormType:         data.DormType,
		EstablishedYear:  data.EstablishedYear,
		PostalCode:       sanitize.Text(data.PostalCode),
		City:             sanitize.Text(data.City),
		State:            sanitize.Text(data.State),
		CoverPhotos:      cleanURLs(data.CoverPhotos),
		CreatedBy:        actor,
		NumberOfReviews:  0,
		AverageRating:    0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.dorms.Insert(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDormNameTaken
		}
		return nil, err
	}

	invalidateHomeStats(ctx, s.log)
	s.log.Info("dorm created", zap.String("dormID", d.ID.Hex()), zap.String("name", d.Name))
	return d, nil
}

// Get returns the dorm with its university expanded.
func (s *DormService) Get(ctx context.Context, id primitive.ObjectID) (*models.DormView, error) {
	d, err := s.dorms.FindViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDormNotFound
	}
	return d, nil
}

// List returns every dorm, newest first, with universities expanded.
func (s *DormService) List(ctx context.Context) ([]models.DormView, error) {
	return s.dorms.ListViews(ctx, nil)
}

// Update applies the given fields and records actor as updatedBy. The
// cached review stats are never written here.
func (s *DormService) Update(ctx context.Context, actor, id primitive.ObjectID, data UpdateDormData) (*models.Dorm, error) {
	data.Name = cleanText(data.Name)
	data.Address = cleanText(data.Address)
	data.DormType = cleanText(data.DormType)
	data.PostalCode = cleanText(data.PostalCode)
	data.City = cleanText(data.City)
	data.State = cleanText(data.State)
	if data.RoomsOffered != nil {
		rooms := dedupe(sanitize.Texts(*data.RoomsOffered))
		data.RoomsOffered = &rooms
	}
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
		taken, err := s.dorms.NameTaken(ctx, nameCI, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDormNameTaken
		}
		set["name"] = name
		set["name_ci"] = nameCI
	}
	if data.ParentUniversity != nil {
		uniID, err := s.parentUniversity(ctx, *data.ParentUniversity)
		if err != nil {
			return nil, err
		}
		set["parentUniversity"] = uniID
	}
	if data.RoomsOffered != nil {
		rooms := *data.RoomsOffered
		if len(rooms) == 0 {
			return nil, validationErr("roomsOffered must have at least 1 item(s)")
		}
		set["roomsOffered"] = rooms
	}
	if data.Description != nil {
		set["description"] = sanitize.Rich(*data.Description)
	}
	if data.Address != nil {
		set["address"] = *data.Address
	}
	if data.DormType != nil {
		set["dormType"] = *data.DormType
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
	if data.CoverPhotos != nil {
		set["coverPhotos"] = cleanURLs(*data.CoverPhotos)
	}
	set["updatedBy"] = actor
	set["updatedAt"] = time.Now().UTC()

	d, err := s.dorms.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDormNameTaken
		}
		return nil, err
	}
	if d == nil {
		return nil, ErrDormNotFound
	}
	return d, nil
}

// Delete removes a dorm and its reviews.
func (s *DormService) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteSummary, error) {
	var sum models.DeleteSummary
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		sum = models.DeleteSummary{}

		var err error
		if sum.DeletedReviews, err = s.reviews.DeleteByDorms(ctx, []primitive.ObjectID{id}); err != nil {
			return err
		}
		if sum.DeletedDorms, err = s.dorms.Delete(ctx, id); err != nil {
			return err
		}
		if sum.DeletedDorms == 0 {
			return ErrDormNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateHomeStats(ctx, s.log)
	s.log.Info("dorm deleted", zap.String("dormID", id.Hex()), zap.Int64("reviews", sum.DeletedReviews))
	return &sum, nil
}

func (s *DormService) parentUniversity(ctx context.Context, hex string) (primitive.ObjectID, error) {
	uniID, err := ParseID(hex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	uni, err := s.unis.FindByID(ctx, uniID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if uni == nil {
		return primitive.NilObjectID, ErrUniversityNotFound
	}
	return uniID, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func cleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
