package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

// EmailIngest is the dedup ledger row written once per inbound message.
type EmailIngest struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Source      string            `gorm:"column:source;not null;default:'inbound_email'"`
	MessageID   string            `gorm:"column:message_id;not null;uniqueIndex:email_ingests_message_id_key"`
	Sender      *string           `gorm:"column:sender"`
	Subject     *string           `gorm:"column:subject"`
	RawText     *string           `gorm:"column:raw_text"`
	RawHTML     *string           `gorm:"column:raw_html"`
	BodyHash    *string           `gorm:"column:body_hash;index"`
	ParseStatus enums.ParseStatus `gorm:"column:parse_status;not null;default:'NEEDS_REVIEW'"`
	OrderID     *uuid.UUID        `gorm:"column:order_id;type:uuid"`
	Error       *string           `gorm:"column:error"`
	ReceivedAt  time.Time         `gorm:"column:received_at;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (EmailIngest) TableName() string { return "email_ingests" }
