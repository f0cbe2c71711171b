package main

import "dompet/cmd"

// @title Dompet API
// @version 1.0
// @description Dasbor keuangan pribadi: pemasukan, pengeluaran, kategori, template, budget, ekspor dan sesi
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}
