package domain

import (
	"context"
	"errors"
)

type AddFavoriteRequest struct {
	UserID   string
	WorkerID string
}

type AddFavoriteResponse struct {
	Favorite     Favorite `json:"favorite"`
	AlreadySaved bool     `json:"already_saved"`
}

type RemoveFavoriteRequest struct {
	UserID   string
	WorkerID string
}

type ListFavoritesRequest struct {
	UserID string
}

type ListFavoritesResponse struct {
	Favorites []Favorite `json:"favorites"`
}

type Service interface {
	Add(context.Context, AddFavoriteRequest) (AddFavoriteResponse, error)
	Remove(context.Context, RemoveFavoriteRequest) error
	List(context.Context, ListFavoritesRequest) (ListFavoritesResponse, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
