package impl

import (
	"pricing/internal/domain/entity"
	"pricing/internal/infra/querycache"
)

// Query declarations and the tags their results provide.
//
//nolint:gochecknoglobals
var (
	opListProducts         = querycache.MustQuery("listProducts", entity.TagProducts)
	opGetProduct           = querycache.MustQuery("getProduct", entity.TagProducts)
	opListProductHistory   = querycache.MustQuery("listProductHistory", entity.TagProductHistory)
	opListMarketConditions = querycache.MustQuery("listMarketConditions", entity.TagMarketConditions)
	opListOptimizationLogs = querycache.MustQuery("listOptimizationLogs", entity.TagOptimizationLogs)
	opListUsers            = querycache.MustQuery("listUsers", entity.TagUser)
	opGetDemandForecast    = querycache.MustQuery("getDemandForecast")
	opOptimizePrice        = querycache.MustQuery("optimizePrice")
	opBulkOptimizePrices   = querycache.MustQuery("bulkOptimizePrices")
	opGetVisualizationData = querycache.MustQuery("getVisualizationData")
)

// Mutation declarations and the tags they invalidate on success.
//
//nolint:gochecknoglobals
var (
	opCreateProduct         = querycache.MustMutation("createProduct", entity.TagProducts)
	opUpdateProduct         = querycache.MustMutation("updateProduct", entity.TagProducts)
	opDeleteProduct         = querycache.MustMutation("deleteProduct", entity.TagProducts)
	opCreateProductHistory  = querycache.MustMutation("createProductHistory", entity.TagProductHistory, entity.TagProducts)
	opDeleteProductHistory  = querycache.MustMutation("deleteProductHistory", entity.TagProductHistory, entity.TagProducts)
	opCreateMarketCondition = querycache.MustMutation("createMarketCondition", entity.TagMarketConditions)
	opUpdateMarketCondition = querycache.MustMutation("updateMarketCondition", entity.TagMarketConditions)
	opDeleteMarketCondition = querycache.MustMutation("deleteMarketCondition", entity.TagMarketConditions)
	opLogin                 = querycache.MustMutation("login", entity.TagUser)
	opRegister              = querycache.MustMutation("register")
)

// bulkOptimizeArgs keys bulk optimisation results by both inputs.
type bulkOptimizeArgs struct {
	Params *entity.OptimizationParams `json:"params"`
	Filter *entity.ProductFilter      `json:"filter"`
}

// optimizeArgs keys single optimisation results.
type optimizeArgs struct {
	ProductID int64                      `json:"product_id"`
	Params    *entity.OptimizationParams `json:"params"`
}
