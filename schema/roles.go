package schema

import "strings"

// ============================================================================
// ROLES — Semantic meaning of a sales column
// ============================================================================

// Role is the semantic meaning assigned to a column.
type Role int

const (
	RoleUnassigned Role = iota
	RoleDate
	RoleRevenue
	RoleQuantity
	RoleProduct
	RoleStore
	RoleOrder
	RoleCustomer
	RolePrice

	numRoles
)

var roleNames = [numRoles]string{
	RoleUnassigned: "unassigned",
	RoleDate:       "date",
	RoleRevenue:    "revenue",
	RoleQuantity:   "quantity",
	RoleProduct:    "product",
	RoleStore:      "store",
	RoleOrder:      "order",
	RoleCustomer:   "customer",
	RolePrice:      "price",
}

func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return roleNames[RoleUnassigned]
	}
	return roleNames[r]
}

// Label is the human-facing name of the role's column, e.g. "Revenue column".
func (r Role) Label() string {
	name := r.String()
	return strings.ToUpper(name[:1]) + name[1:] + " column"
}

// Roles lists every assignable role in detection order.
func Roles() []Role {
	return []Role{RoleDate, RoleRevenue, RoleQuantity, RoleProduct, RoleStore, RoleOrder, RoleCustomer, RolePrice}
}

// ParseRole maps a role name back to a Role. Unknown names yield RoleUnassigned.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	for r := RoleDate; r < numRoles; r++ {
		if roleNames[r] == s {
			return r
		}
	}
	return RoleUnassigned
}

// ============================================================================
// KEYWORD TABLE
// ============================================================================
// Header names are matched case-insensitively by substring. The revenue set
// has no "price": unit price columns feed the price × quantity fallback.
// ============================================================================

// Keywords holds the lowercase header substrings that identify each named role.
var Keywords = map[Role][]string{
	RoleRevenue:  {"revenue", "amount", "total", "sales", "montant"},
	RoleQuantity: {"quantity", "qty", "units", "unit", "quantité", "qte"},
	RoleProduct:  {"product", "item", "sku", "article", "produit"},
	RoleStore:    {"store", "shop", "branch", "location", "magasin"},
	RoleOrder:    {"order_id", "order", "invoice", "transaction", "commande"},
	RoleCustomer: {"customer", "client", "buyer", "client_id"},
	RolePrice:    {"price", "unit_price", "cost", "prix"},
}

// namedRoles is the order in which header-matched roles claim columns.
// RolePrice is only searched by the synthetic revenue fallback.
var namedRoles = []Role{RoleRevenue, RoleQuantity, RoleProduct, RoleStore, RoleOrder, RoleCustomer}

// MatchKeyword returns the first keyword contained in the lower-cased name.
func MatchKeyword(name string, keywords []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// MarshalText lets roles appear by name in JSON and YAML.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
