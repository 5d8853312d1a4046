// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package natsort orders strings the way people read them: embedded runs of
digits compare by numeric value, so "chapter 2" sorts before "chapter 10".

Letters compare case-insensitively. Strings that are naturally equal (such as
"a01" and "a1") fall back to byte order so the result is a total order.
*/
package natsort

import (
	"strings"
	"unicode"
)

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to
// or after b in natural order.
func Compare(a, b string) int {
	left, right := []rune(a), []rune(b)
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if isDigit(left[i]) && isDigit(right[j]) {
			startLeft, startRight := i, j
			for i < len(left) && isDigit(left[i]) {
				i++
			}
			for j < len(right) && isDigit(right[j]) {
				j++
			}
			if c := compareDigits(left[startLeft:i], right[startRight:j]); c != 0 {
				return c
			}
			continue
		}

		lowerLeft, lowerRight := unicode.ToLower(left[i]), unicode.ToLower(right[j])
		if lowerLeft != lowerRight {
			if lowerLeft < lowerRight {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch remainingLeft, remainingRight := len(left)-i, len(right)-j; {
	case remainingLeft < remainingRight:
		return -1
	case remainingLeft > remainingRight:
		return 1
	}

	return strings.Compare(a, b)
}

// compareDigits compares two digit runs by numeric value without parsing,
// so runs longer than any integer type still order correctly.
func compareDigits(a, b []rune) int {
	a, b = trimZeros(a), trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for k := range a {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func trimZeros(run []rune) []rune {
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	return run
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
