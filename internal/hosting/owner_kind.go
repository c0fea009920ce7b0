package hosting

const (
	ownerKindUserConstant            OwnerKind = "user"
	ownerKindOrganizationConstant    OwnerKind = "org"
	usersPathSegmentConstant                   = "users"
	organizationsPathSegmentConstant           = "orgs"
)

// OwnerKind distinguishes user-owned from organization-owned repositories.
type OwnerKind string

// UserOwnerKind identifies an individual account.
const UserOwnerKind OwnerKind = ownerKindUserConstant

// OrganizationOwnerKind identifies an organization account.
const OrganizationOwnerKind OwnerKind = ownerKindOrganizationConstant

// PathSegment resolves the REST API segment for the owner kind.
func (ownerKind OwnerKind) PathSegment() string {
	switch ownerKind {
	case OrganizationOwnerKind:
		return organizationsPathSegmentConstant
	default:
		return usersPathSegmentConstant
	}
}

// String returns the textual owner kind.
func (ownerKind OwnerKind) String() string {
	return string(ownerKind)
}
