package download

type GenerateDownloadURLRequest struct {
	DigitalFileID int64 `json:"digital_file_id" binding:"required"`
}

type GenerateFreeDownloadURLRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}
