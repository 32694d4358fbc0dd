// 批量导入题库脚本
//
// 与管理端 /admin/questions/import 接口功能相同，用于部署时直接从
// 服务器上的 CSV 文件灌入题库，不需要先登录管理员账号。
//
// 用法: go run scripts/import_questions.go questions.csv

package main

import (
	"log"
	"os"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/repository"
	"trailhunt_backend/internal/service"
	"trailhunt_backend/pkg/database"
	"trailhunt_backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_questions.go <csv文件路径>")
	}
	csvPath := os.Args[1]

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("无法打开 CSV 文件: %v", err)
	}
	defer f.Close()

	questionService := service.NewQuestionService(
		repository.NewQuestionRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewAnswerRepository(db),
	)

	report, err := questionService.ImportCSV(f)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	log.Printf("导入完成: %d 条", report.Imported)
	for _, rowErr := range report.Errors {
		log.Printf("第 %d 行跳过: %s", rowErr.Line, rowErr.Reason)
	}
}
