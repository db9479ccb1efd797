package controllers

import (
	"net/http"

	"github.com/SketchShifter/midpoint_backend/internal/middlewares"
	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// SearchHistoryController 検索履歴に関するコントローラー
type SearchHistoryController struct {
	historyService services.SearchHistoryService
}

// NewSearchHistoryController SearchHistoryControllerを作成
func NewSearchHistoryController(historyService services.SearchHistoryService) *SearchHistoryController {
	return &SearchHistoryController{
		historyService: historyService,
	}
}

// PlaceRequest 保存する場所
type PlaceRequest struct {
	PlaceName    string   `json:"placeName"`
	PlaceAddress string   `json:"placeAddress"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImageURL     string   `json:"imageUrl"`
}

// SearchHistoryRequest 検索履歴保存リクエスト
type SearchHistoryRequest struct {
	Neighborhood string         `json:"neighborhood"`
	HistoryDto   []PlaceRequest `json:"historyDto"`
}

// Save 検索履歴を保存
func (c *SearchHistoryController) Save(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	var req SearchHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "検索履歴の保存中にエラーが発生しました")
		return
	}

	places := make([]services.PlaceInput, 0, len(req.HistoryDto))
	for _, p := range req.HistoryDto {
		places = append(places, services.PlaceInput{
			PlaceName:    p.PlaceName,
			PlaceAddress: p.PlaceAddress,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			ImageURL:     p.ImageURL,
		})
	}

	if err := c.historyService.Save(ctx.Request.Context(), req.Neighborhood, member.Email, places); err != nil {
		respondError(ctx, err, "検索履歴の保存中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "検索履歴を保存しました"})
}

// List 検索履歴を取得
func (c *SearchHistoryController) List(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	histories, err := c.historyService.GetHistory(ctx.Request.Context(), member)
	if err != nil {
		respondError(ctx, err, "検索履歴の取得中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, histories)
}
