// Package note stores free-text notes against prospects.
package note
