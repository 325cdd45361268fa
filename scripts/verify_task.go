package main

import (
	"fmt"
	"os"
	"os/exec"
)

// runVerify 對應 Makefile:
//
// verify:
//
//	go run ./cmd/verify
//
// 行為:跑全量 incidence 驗證(1596 組卡對 + 對偶 + 度數),
// 驗證失敗以非零碼結束。
func runVerify() {
	PrintGreen("running incidence verification")

	cmd := exec.Command("go", "run", "./cmd/verify")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("verification failed: %v", err))
		os.Exit(1)
	}
}
