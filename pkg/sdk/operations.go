package sdk

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Operation is one of the four calls the groups service supports.
type Operation int

const (
	OpGroupsByMember Operation = iota + 1
	OpListMembers
	OpAddMember
	OpRemoveMember
)

var operationNames = map[Operation]string{
	OpGroupsByMember: "groups-by-member",
	OpListMembers:    "list-members",
	OpAddMember:      "add-member",
	OpRemoveMember:   "remove-member",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// IsRead reports whether the operation returns a membership list rather
// than a bare status code.
func (o Operation) IsRead() bool {
	return o == OpGroupsByMember || o == OpListMembers
}

// ParseOperation maps a command name such as "add-member" to its Operation.
func ParseOperation(name string) (Operation, error) {
	for op, n := range operationNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}

// Request is the method and fully qualified URL for one operation.
type Request struct {
	Operation Operation
	Method    string
	URL       string
	Group     GroupID
	Member    NetID
}

// Dispatcher turns an operation and its identifiers into a Request against
// a fixed base URL. It holds no state beyond the base URL.
type Dispatcher struct {
	baseURL string
}

// NewDispatcher returns a Dispatcher for baseURL. Trailing slashes are
// dropped so templates can be appended directly.
func NewDispatcher(baseURL string) *Dispatcher {
	return &Dispatcher{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the normalised base URL.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Dispatch builds the Request for op. Identifiers must already be
// validated; group is ignored for OpGroupsByMember and member for
// OpListMembers. An unknown operation is a programming error and panics.
func (d *Dispatcher) Dispatch(op Operation, group GroupID, member NetID) Request {
	req := Request{Operation: op, Group: group, Member: member}

	switch op {
	case OpGroupsByMember:
		req.Method = http.MethodGet
		req.URL = d.baseURL + "/search?" + url.Values{"member": {string(member)}}.Encode()
		req.Group = ""
	case OpListMembers:
		req.Method = http.MethodGet
		req.URL = d.baseURL + "/group/" + url.PathEscape(string(group)) + "/member"
		req.Member = ""
	case OpAddMember:
		req.Method = http.MethodPut
		req.URL = d.memberURL(group, member)
	case OpRemoveMember:
		req.Method = http.MethodDelete
		req.URL = d.memberURL(group, member)
	default:
		panic(fmt.Sprintf("sdk: dispatch of unknown operation %d", int(op)))
	}

	return req
}

func (d *Dispatcher) memberURL(group GroupID, member NetID) string {
	return d.baseURL + "/group/" + url.PathEscape(string(group)) + "/member/" + url.PathEscape(string(member))
}
