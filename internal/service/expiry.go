package service

import (
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
)

// IsLive сообщает, действительна ли запись в момент now.
// Чистая функция: отсутствие expires_at означает вечную ссылку.
// Монотонна по now — однажды умершая запись не оживает.
//
// Истечение всегда проверяется по живым часам в момент чтения и никогда
// не кэшируется как флаг: кэш может хранить физически мёртвую запись,
// но отдавать её нельзя.
func IsLive(link *models.Link, now time.Time) bool {
	if link.ExpiresAt == nil {
		return true
	}
	return now.Before(*link.ExpiresAt)
}
