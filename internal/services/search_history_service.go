package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
)

// PlaceInput 保存する場所
type PlaceInput struct {
	PlaceName    string
	PlaceAddress string
	Latitude     *float64
	Longitude    *float64
	ImageURL     string
}

// PlaceResponse 検索履歴内の場所
type PlaceResponse struct {
	PlaceName    string  `json:"placeName"`
	PlaceAddress string  `json:"placeAddress"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ImageURL     string  `json:"imageUrl"`
}

// SearchHistoryResponse 検索履歴
type SearchHistoryResponse struct {
	SearchHistoryID uint            `json:"searchHistoryId"`
	Neighborhood    string          `json:"neighborhood"`
	SearchDate      time.Time       `json:"searchDate"`
	Places          []PlaceResponse `json:"places"`
}

// SearchHistoryService 検索履歴に関するサービスインターフェース
type SearchHistoryService interface {
	Save(ctx context.Context, neighborhood, email string, places []PlaceInput) error
	GetHistory(ctx context.Context, member *models.Member) ([]SearchHistoryResponse, error)
}

// searchHistoryService SearchHistoryServiceの実装
type searchHistoryService struct {
	store repository.Store
	now   func() time.Time
}

// NewSearchHistoryService SearchHistoryServiceを作成
func NewSearchHistoryService(store repository.Store) SearchHistoryService {
	return &searchHistoryService{
		store: store,
		now:   time.Now,
	}
}

// Save 検索履歴を保存
func (s *searchHistoryService) Save(ctx context.Context, neighborhood, email string, places []PlaceInput) error {
	if strings.TrimSpace(neighborhood) == "" {
		return ErrEmptyField.WithMessage("地域情報が入力されていません")
	}
	if err := validatePlaces(places); err != nil {
		return err
	}

	store := s.store.WithContext(ctx)
	member, err := store.Members().FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMemberNotFound
	}
	if err != nil {
		return err
	}

	history := &models.SearchHistory{
		MemberID:     member.ID,
		Neighborhood: neighborhood,
		SearchDate:   s.now(),
		Places:       make([]models.PlaceInfo, 0, len(places)),
	}
	for i, p := range places {
		history.Places = append(history.Places, models.PlaceInfo{
			Position:     i,
			PlaceName:    p.PlaceName,
			PlaceAddress: p.PlaceAddress,
			Latitude:     *p.Latitude,
			Longitude:    *p.Longitude,
			ImageURL:     p.ImageURL,
		})
	}

	return store.Transaction(func(tx repository.Store) error {
		return tx.SearchHistories().Create(history)
	})
}

// GetHistory 会員の検索履歴を新しい順に取得
func (s *searchHistoryService) GetHistory(ctx context.Context, member *models.Member) ([]SearchHistoryResponse, error) {
	if member == nil {
		return nil, ErrUnauthorized
	}

	histories, err := s.store.WithContext(ctx).SearchHistories().ListByMember(member.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]SearchHistoryResponse, 0, len(histories))
	for _, h := range histories {
		places := make([]PlaceResponse, 0, len(h.Places))
		for _, p := range h.Places {
			places = append(places, PlaceResponse{
				PlaceName:    p.PlaceName,
				PlaceAddress: p.PlaceAddress,
				Latitude:     p.Latitude,
				Longitude:    p.Longitude,
				ImageURL:     p.ImageURL,
			})
		}
		responses = append(responses, SearchHistoryResponse{
			SearchHistoryID: h.ID,
			Neighborhood:    h.Neighborhood,
			SearchDate:      h.SearchDate,
			Places:          places,
		})
	}
	return responses, nil
}

// validatePlaces 保存前にすべての場所を検証
func validatePlaces(places []PlaceInput) error {
	verr := &ValidationError{}
	for i, p := range places {
		field := func(name string) string {
			return fmt.Sprintf("historyDto[%d].%s", i, name)
		}
		if strings.TrimSpace(p.PlaceName) == "" {
			verr.Add(field("placeName"), "場所の名前を入力してください")
		}
		if strings.TrimSpace(p.PlaceAddress) == "" {
			verr.Add(field("placeAddress"), "場所の住所を入力してください")
		}
		if p.Latitude == nil {
			verr.Add(field("latitude"), "緯度を入力してください")
		}
		if p.Longitude == nil {
			verr.Add(field("longitude"), "経度を入力してください")
		}
	}
	return verr.OrNil()
}
