package handlers

import (
	"errors"
	"strconv"

	"github.com/amaumene/testenv/pkg/device"
)

const maxHistoryLimit = 1000

var (
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidDevice = errors.New("invalid device")
)

// validateLimit parses the optional limit query parameter
func validateLimit(limitStr string) (int, error) {
	if limitStr == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, ErrInvalidLimit
	}

	if limit <= 0 || limit > maxHistoryLimit {
		return 0, ErrInvalidLimit
	}

	return limit, nil
}

// validateDevice normalizes the optional device query parameter
func validateDevice(deviceStr string) (string, error) {
	if deviceStr == "" {
		return "", nil
	}

	selector, err := device.ParseSelector(deviceStr)
	if err != nil {
		return "", ErrInvalidDevice
	}
	return selector.String(), nil
}
