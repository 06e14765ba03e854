package notify

// The service launched Arabic-first; English is the fallback catalog.

var translations = map[string]map[string]string{
	"ar": {
		"link.created":      "تم إنشاء الرابط بنجاح",
		"link.create.error": "حدث خطأ أثناء إنشاء الرابط",
		"link.unsupported":  "لم ندعم هذا الرابط بعد، يرجى استخدام رابط منصة اجتماعية أخرى",
		"link.notfound":     "لا يوجد رابط مطابق",
		"link.check.error":  "حدث خطأ أثناء التحقق من الرابط",
		"link.verified":     "تم التحقق من الرابط بنجاح",
		"quiz.invalid":      "أسئلة التحقق غير مكتملة، راجع الأسئلة والإجابات",
		"answer.wrong":      "الإجابة خاطئة، حاول مرة أخرى",
		"answer.correct":    "اجابتك صحيحة، اضغط الرابط أسفل الصفحة للانضمام",
		"answer.error":      "حدث خطأ أثناء التحقق من الإجابات",
		"otp.sent":          "تم إرسال رمز التحقق بنجاح",
		"otp.send.failed":   "فشل في إرسال رمز التحقق",
		"otp.send.error":    "حدث خطأ أثناء إرسال رمز التحقق",
		"otp.blocked":       "تم حظر الرقم عن استخدام الخدمة",
		"otp.throttled":     "تم تجاوز حد الإرسال، حاول مرة أخرى لاحقًا",
		"otp.cooldown":      "يرجى الانتظار %d ثانية قبل إعادة إرسال الرمز",
		"otp.verified":      "تم التحقق بنجاح",
		"otp.wrong":         "رمز التحقق غير صحيح",
		"otp.verify.error":  "حدث خطأ أثناء التحقق من الرمز",
		"ban.active":        "تم حظرك من النظام لمدة %d ساعة",
		"ban.applied":       "تم تجاوز عدد المحاولات المسموح بها. سيتم حظرك لمدة %d ساعة",
	},
	"en": {
		"link.created":      "Secure link created",
		"link.create.error": "Something went wrong while creating the link",
		"link.unsupported":  "This platform is not supported yet, please use another social platform link",
		"link.notfound":     "No matching secure link",
		"link.check.error":  "Something went wrong while checking the link",
		"link.verified":     "Link verified successfully",
		"quiz.invalid":      "Verification questions are incomplete, review the questions and answers",
		"answer.wrong":      "Wrong answer, try again",
		"answer.correct":    "Correct! Use the link at the bottom of the page to join",
		"answer.error":      "Something went wrong while checking the answers",
		"otp.sent":          "Verification code sent",
		"otp.send.failed":   "Failed to send the verification code",
		"otp.send.error":    "Something went wrong while sending the verification code",
		"otp.blocked":       "This contact is blocked from using the service",
		"otp.throttled":     "Send limit exceeded, try again later",
		"otp.cooldown":      "Please wait %d seconds before resending the code",
		"otp.verified":      "Verified successfully",
		"otp.wrong":         "Incorrect verification code",
		"otp.verify.error":  "Something went wrong while verifying the code",
		"ban.active":        "You are banned from the system for %d hours",
		"ban.applied":       "Attempt limit exceeded. You will be banned for %d hours",
	},
}

// T returns the message (or format string) for key in locale; falls back to
// English, then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
