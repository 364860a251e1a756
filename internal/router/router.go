package router

import (
	"github.com/blues/fes/internal/config"
	"github.com/blues/fes/internal/event"
	"github.com/blues/fes/internal/handler"
	"github.com/blues/fes/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, recorder *event.Recorder, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "freelance-escrow-service",
		})
	})

	contractLogic := logic.NewContractLogic(db)
	milestoneLogic := logic.NewMilestoneLogic(db)
	escrowLogic := logic.NewEscrowLogic(db)
	walletLogic := logic.NewWalletLogic(db)

	contractHandler := handler.NewContractHandler(contractLogic, milestoneLogic)
	milestoneHandler := handler.NewMilestoneHandler(milestoneLogic)
	paymentHandler := handler.NewPaymentHandler(escrowLogic, recorder)
	walletHandler := handler.NewWalletHandler(walletLogic, recorder)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 合同相关路由
		contracts := v1.Group("/contracts")
		{
			contracts.POST("", contractHandler.CreateContract)
			contracts.GET("", contractHandler.GetContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.PUT("/:id/status", contractHandler.UpdateContractStatus)
			contracts.GET("/:id/milestones", contractHandler.GetContractMilestones)
		}

		// 里程碑相关路由
		milestones := v1.Group("/milestones")
		{
			milestones.POST("/:id/start", milestoneHandler.StartMilestone)
			milestones.POST("/:id/submit", milestoneHandler.SubmitMilestone)
			milestones.POST("/:id/approve", milestoneHandler.ApproveMilestone)
			milestones.POST("/:id/fund", paymentHandler.FundMilestone)
			milestones.POST("/:id/release", paymentHandler.ReleaseMilestone)
		}

		// 钱包相关路由
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", walletHandler.GetWallet)
			wallet.GET("/transactions", walletHandler.GetTransactions)
			wallet.POST("/withdrawals", walletHandler.RequestWithdrawal)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
