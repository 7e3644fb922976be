package sdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MembershipList is the ordered list of IDs returned by a read operation:
// group IDs for OpGroupsByMember, NetIDs for OpListMembers. Server order is
// preserved; nothing is sorted or deduplicated.
type MembershipList []string

// OperationResult is the outcome of a write operation. Any status code is
// a result, including 4xx and 5xx.
type OperationResult struct {
	Operation  Operation
	Member     NetID
	Group      GroupID
	StatusCode int
	RequestID  string
}

// Succeeded reports whether the service answered with a 2xx status.
func (r *OperationResult) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// membershipEnvelope mirrors {"data":[{"id":"..."}]}. Pointers distinguish
// a missing or null field from an empty one.
type membershipEnvelope struct {
	Data *[]membershipEntry `json:"data"`
}

type membershipEntry struct {
	ID *string `json:"id"`
}

// DecodeMembershipList parses a read-operation body into a MembershipList.
func DecodeMembershipList(body []byte) (MembershipList, error) {
	if !utf8.Valid(body) {
		return nil, &DecodeError{Err: errors.New("response body is not valid UTF-8")}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DecodeError{Err: errors.New("response body is empty")}
	}

	var envelope membershipEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if envelope.Data == nil {
		return nil, &DecodeError{Err: errors.New(`missing "data" field`)}
	}

	list := make(MembershipList, 0, len(*envelope.Data))
	for i, entry := range *envelope.Data {
		if entry.ID == nil {
			return nil, &DecodeError{Err: fmt.Errorf(`data[%d]: missing "id" field`, i)}
		}
		list = append(list, *entry.ID)
	}
	return list, nil
}
