package entity

// CacheTag names a group of cached queries that mutations can invalidate together.
type CacheTag string

const (
	TagProducts         CacheTag = "Products"
	TagProductHistory   CacheTag = "ProductHistory"
	TagMarketConditions CacheTag = "MarketConditions"
	TagOptimizationLogs CacheTag = "OptimizationLogs"
	TagUser             CacheTag = "User"
)

// String returns the string representation of the CacheTag.
func (t CacheTag) String() string {
	return string(t)
}

// IsValid checks if the CacheTag is one of the declared groups.
func (t CacheTag) IsValid() bool {
	switch t {
	case TagProducts, TagProductHistory, TagMarketConditions, TagOptimizationLogs, TagUser:
		return true
	default:
		return false
	}
}

// AllCacheTags lists every declared tag.
func AllCacheTags() []CacheTag {
	return []CacheTag{TagProducts, TagProductHistory, TagMarketConditions, TagOptimizationLogs, TagUser}
}
