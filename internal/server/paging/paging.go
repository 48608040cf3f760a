package paging

import (
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"github.com/samber/lo"
)

// Query is the paging part of list requests. Page is zero based.
type Query struct {
	Page int `query:"page" validate:"min=0"`
	Size int `query:"size" validate:"omitempty,min=1,max=100"`
}

func (q Query) ToPage() storage.Page {
	return storage.Page{Number: q.Page, Size: q.Size}.Normalize()
}

// Response is a page of items.
type Response[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

func NewResponse[T, R any](paged storage.Paged[T], fn func(T) R) Response[R] {
	return Response[R]{
		Items: lo.Map(paged.Items, func(item T, _ int) R { return fn(item) }),
		Page:  paged.Page,
		Size:  paged.Size,
		Total: paged.Total,
	}
}
