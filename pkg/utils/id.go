package utils

import "github.com/google/uuid"

// NewID 记录主键（36 位 uuid）
func NewID() string { return uuid.NewString() }
