package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

var smsClient = resty.New()

// SendOTPToMobile delivers the OTP over the SMS gateway
func SendOTPToMobile(mobile, otp string) error {
	resp, err := smsClient.R().
		SetQueryParams(map[string]string{
			"authorization":    config.AppConfig.SMSApiKey,
			"route":            "otp",
			"sender_id":        config.AppConfig.SMSSender,
			"variables_values": otp,
			"numbers":          mobile,
		}).
		Get(config.AppConfig.SMSApiURL)
	if err != nil {
		log.Printf("Error while sending OTP to %s: %v", mobile, err)
		return err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Failed to send OTP to %s, response code: %d", mobile, resp.StatusCode())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}
