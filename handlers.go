package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"screenpay/models"
	"screenpay/pkg/clients"
	"screenpay/pkg/pending"
	"screenpay/pkg/realtime"
	"screenpay/pkg/screen"
	"screenpay/pkg/slip"
)

// Wired in main; tests swap in fakes.
var (
	cfg         Config
	store       *pending.Store
	verifier    *slip.Service
	ocrReader   slip.Reader
	adminClient *clients.Admin
	otpClient   *clients.OTP
	screenCfg   *screen.Holder
	hub         *realtime.Hub
)

var phoneRE = regexp.MustCompile(`^\d{10}$`)

func setupRoutes(r *gin.Engine) {
	r.POST("/api/upload", createUploadHandler)
	r.GET("/api/upload-status/:uploadId", uploadStatusHandler)
	r.POST("/api/confirm-payment", confirmPaymentHandler)
	r.POST("/verify-slip", verifySlipHandler)
	r.POST("/api/ocr", ocrHandler)
	r.POST("/api/report", reportHandler)
	r.POST("/send-otp", sendOTPHandler)
	r.POST("/verify-otp", verifyOTPHandler)
	r.POST("/verify-payment", verifyPaymentHandler)
	r.GET("/api/config", getConfigHandler)
	r.GET("/api/config/stream", streamConfigHandler)
	r.POST("/admin/login", adminLoginHandler)
	adminGroup := r.Group("/admin")
	adminGroup.Use(jwtAuthMiddleware())
	adminGroup.PUT("/config", updateConfigHandler)
	r.Static("/uploads", cfg.UploadDir)
}

// createUploadHandler stages submitted content and starts its payment clock.
func createUploadHandler(c *gin.Context) {
	contentType := c.PostForm("type")
	if contentType != models.ContentImage && contentType != models.ContentText {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "type must be image or text"})
		return
	}
	sc := screenCfg.Snapshot()
	if contentType == models.ContentImage && !sc.EnableImage {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "image uploads are currently disabled"})
		return
	}
	if contentType == models.ContentText && !sc.EnableText {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "text uploads are currently disabled"})
		return
	}

	u := models.PendingUpload{
		Text:       c.PostForm("text"),
		Type:       contentType,
		Time:       c.PostForm("time"),
		Price:      c.PostForm("price"),
		Sender:     c.PostForm("sender"),
		TextColor:  c.PostForm("textColor"),
		SocialType: c.PostForm("socialType"),
		SocialName: c.PostForm("socialName"),
	}
	if file, err := c.FormFile("file"); err == nil {
		name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
		dst := filepath.Join(cfg.UploadDir, name)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "save failed"})
			return
		}
		u.FileName = name
		u.FilePath = dst
	}

	id := store.Create(u)
	c.JSON(http.StatusOK, gin.H{"success": true, "uploadId": id})
}

func uploadStatusHandler(c *gin.Context) {
	e, ok := store.Get(c.Param("uploadId"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "status": e.Status})
}

// confirmPaymentHandler hands the staged content to the admin backend. A
// failed hand-off leaves the entry pending so the client can retry until the
// expiry window closes.
func confirmPaymentHandler(c *gin.Context) {
	var req struct {
		UploadID string `json:"uploadId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UploadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing uploadId"})
		return
	}
	switch err := store.Confirm(req.UploadID); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment confirmed and data sent to admin"})
	case errors.Is(err, pending.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Upload not found or expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "เกิดข้อผิดพลาดในการยืนยันการชำระเงิน"})
	}
}

// verifySlipHandler runs the slip verification pipeline. All verdicts come
// back with HTTP 200; the body's success flag carries the outcome.
func verifySlipHandler(c *gin.Context) {
	amount := c.PostForm("amount")
	if amount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing amount"})
		return
	}

	var path string
	if file, err := c.FormFile("slip"); err == nil {
		name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
		path = filepath.Join(cfg.UploadDir, name)
		if err := c.SaveUploadedFile(file, path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "save failed"})
			return
		}
	}

	v := verifier.Verify(path, amount)
	if v.Success() {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": false, "message": v.Detail})
}

// ocrHandler exposes raw text extraction for the frontend preview.
func ocrHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file uploaded"})
		return
	}
	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
	path := filepath.Join(cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "save failed"})
		return
	}
	text, err := ocrReader.Recognize(path)
	if err != nil {
		log.WithError(err).Warn("ocr endpoint failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "OCR failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "text": text})
}

// reportHandler relays a user report to the admin backend.
func reportHandler(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Detail   string `json:"detail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "category and detail are required"})
		return
	}
	if err := adminClient.ForwardReport(req.Category, req.Detail); err != nil {
		log.WithError(err).Error("report relay failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "ส่งข้อมูลไป admin ไม่สำเร็จ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func sendOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "กรุณาระบุหมายเลขโทรศัพท์"})
		return
	}
	if !phoneRE.MatchString(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "หมายเลขโทรศัพท์ไม่ถูกต้อง"})
		return
	}
	token, err := otpClient.Send(req.Phone)
	if err != nil {
		var rej *clients.RejectedError
		if errors.As(err, &rej) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": rej.Detail})
			return
		}
		log.WithError(err).Error("otp send failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "ไม่สามารถส่ง OTP ได้"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP ส่งสำเร็จ", "token": token})
}

func verifyOTPHandler(c *gin.Context) {
	var req struct {
		OTP   string `json:"otp"`
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OTP == "" || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "กรุณาระบุ OTP และ token"})
		return
	}
	if err := otpClient.Validate(req.OTP, req.Token); err != nil {
		var rej *clients.RejectedError
		if errors.As(err, &rej) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": rej.Detail})
			return
		}
		log.WithError(err).Error("otp validate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "ไม่สามารถตรวจสอบ OTP ได้"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully"})
}

// verifyPaymentHandler is the legacy promptpay check against the configured
// expected amount.
func verifyPaymentHandler(c *gin.Context) {
	var req struct {
		Amount int    `json:"amount"`
		Method string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == 0 || req.Method == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "กรุณาระบุจำนวนเงินและวิธีการชำระเงิน"})
		return
	}
	if req.Amount == cfg.ExpectedAmount && req.Method == "promptpay" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": false})
}

func getConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, screenCfg.Snapshot())
}

func streamConfigHandler(c *gin.Context) {
	hub.Serve(c, screenCfg.Snapshot())
}

// updateConfigHandler merges a partial config change from the admin panel.
// Persisting and broadcasting happen inside the holder.
func updateConfigHandler(c *gin.Context) {
	var req screen.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, screenCfg.Apply(req))
}
