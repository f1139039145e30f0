package domain

import (
	"fmt"
	"strings"
)

type CafeName string

func NewCafeName(value string) (CafeName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("カフェ名は必須です")
	}
	return CafeName(trimmed), nil
}

func (n CafeName) String() string {
	return string(n)
}

type City string

func NewCity(value string) (City, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("都市名は必須です")
	}
	return City(trimmed), nil
}

func (c City) String() string {
	return string(c)
}

type Score float64

func NewScore(value float64) (Score, error) {
	if value < 0 || value > 10 {
		return 0, fmt.Errorf("点数は 0 から 10 の範囲で入力してください")
	}
	return Score(value), nil
}

func (s Score) Float64() float64 {
	return float64(s)
}
